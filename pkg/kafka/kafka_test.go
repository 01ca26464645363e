package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"shifumi-plus/pkg/models"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

type fakeReader struct {
	msgs []kafka.Message
}

func (r *fakeReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	if len(r.msgs) == 0 {
		return kafka.Message{}, io.EOF
	}
	msg := r.msgs[0]
	r.msgs = r.msgs[1:]
	return msg, nil
}

func TestPublisher_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := &Publisher{writer: w, log: zerolog.Nop()}

	round := models.RoundResult{GameID: "g1", Round: 1, HumanMove: models.Rock, BotMove: models.Scissors, Winner: models.WinnerHuman}
	require.NoError(t, p.Publish(context.Background(), "g1", KindRound, round))
	require.NoError(t, p.Close())

	require.Len(t, w.msgs, 1)
	assert.True(t, w.closed)
	assert.Equal(t, "g1", string(w.msgs[0].Key))
	assert.Equal(t, KindRound, Kind(w.msgs[0]))

	var got models.RoundResult
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	assert.Equal(t, round, got)
}

func TestPublisher_WriteError(t *testing.T) {
	boom := errors.New("broker down")
	p := &Publisher{writer: &fakeWriter{err: boom}, log: zerolog.Nop()}

	err := p.Publish(context.Background(), "g1", KindGame, models.GameResult{GameID: "g1"})
	assert.ErrorIs(t, err, boom)
}

func TestNewMessage_Unencodable(t *testing.T) {
	_, err := NewMessage("g1", KindRound, make(chan int))
	assert.Error(t, err)
}

func TestKind_Missing(t *testing.T) {
	assert.Equal(t, "", Kind(kafka.Message{}))
}

func TestReadMessages(t *testing.T) {
	m1, err := NewMessage("g1", KindRound, models.RoundResult{GameID: "g1", Round: 1})
	require.NoError(t, err)
	m2, err := NewMessage("g1", KindGame, models.GameResult{GameID: "g1"})
	require.NoError(t, err)

	var kinds []string
	err = ReadMessages(context.Background(), &fakeReader{msgs: []kafka.Message{m1, m2}}, func(msg kafka.Message) error {
		kinds = append(kinds, Kind(msg))
		return nil
	})

	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, []string{KindRound, KindGame}, kinds)
}

func TestReadMessages_HandlerError(t *testing.T) {
	m1, err := NewMessage("g1", KindRound, models.RoundResult{})
	require.NoError(t, err)
	stop := errors.New("stop")

	err = ReadMessages(context.Background(), &fakeReader{msgs: []kafka.Message{m1, m1}}, func(kafka.Message) error {
		return stop
	})
	assert.ErrorIs(t, err, stop)
}

func TestReadMessages_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := ReadMessages(ctx, &fakeReader{}, func(kafka.Message) error { return nil })
	assert.NoError(t, err)
}

func TestNewResultsWriter(t *testing.T) {
	w := NewResultsWriter([]string{"localhost:9092"}, "game-results")
	defer w.Close()

	assert.Equal(t, "game-results", w.Topic)
	assert.Equal(t, publishBatchTimeout, w.BatchTimeout)
	assert.Less(t, w.BatchTimeout, 100*time.Millisecond)
	assert.IsType(t, &kafka.Hash{}, w.Balancer)
	assert.Equal(t, kafka.RequireOne, w.RequiredAcks)

	p := NewPublisher([]string{"localhost:9092"}, "game-results", zerolog.Nop())
	defer p.Close()
	assert.IsType(t, &kafka.Writer{}, p.writer)
}

// unreachableBroker refuses connections immediately.
const unreachableBroker = "127.0.0.1:1"

func TestCreateKafkaTopic_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := CreateKafkaTopic(ctx, unreachableBroker, "game-results", 1, 1)
	assert.Error(t, err)
}

func TestWaitForKafka(t *testing.T) {
	tests := []struct {
		name    string
		ctx     func() (context.Context, context.CancelFunc)
		wantErr error
	}{
		{
			name: "already cancelled",
			ctx: func() (context.Context, context.CancelFunc) {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx, cancel
			},
			wantErr: context.Canceled,
		},
		{
			name: "deadline while retrying",
			ctx: func() (context.Context, context.CancelFunc) {
				return context.WithTimeout(context.Background(), 300*time.Millisecond)
			},
			wantErr: context.DeadlineExceeded,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := tt.ctx()
			defer cancel()

			start := time.Now()
			err := WaitForKafka(ctx, unreachableBroker, []string{"game-results"}, 20*time.Millisecond, zerolog.Nop())

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Less(t, time.Since(start), 3*time.Second)
		})
	}
}
