package client

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"shifumi-plus/api/server"
	"shifumi-plus/pkg/models"
	"shifumi-plus/pkg/rules"
)

// Console plays a game against the bot over a line-oriented terminal.
type Console struct {
	referee *server.Referee
	in      *bufio.Reader
	out     io.Writer
}

type line struct {
	text string
	err  error
}

func NewConsole(referee *server.Referee, in io.Reader, out io.Writer) *Console {
	return &Console{
		referee: referee,
		in:      bufio.NewReader(in),
		out:     out,
	}
}

// Run explains the rules, plays rounds until the game is over and prints the
// final result. It returns io.ErrUnexpectedEOF if input ends mid-game and the
// context error as soon as ctx is done, even while waiting for input.
func (c *Console) Run(ctx context.Context) (models.GameResult, error) {
	c.explainRules()

	done := make(chan struct{})
	defer close(done)
	lines := c.readLines(done)

	for !c.referee.GameOver() {
		if err := ctx.Err(); err != nil {
			return c.referee.Result(), err
		}

		state := c.referee.State()
		fmt.Fprintf(c.out, "Round %d / %d\n", state.Round, state.MaxRounds)
		fmt.Fprint(c.out, "Enter your move: ")

		var l line
		select {
		case <-ctx.Done():
			fmt.Fprintln(c.out)
			return c.referee.Result(), ctx.Err()
		case l = <-lines:
		}

		// A line and a cancellation can arrive together; cancellation wins.
		if err := ctx.Err(); err != nil {
			fmt.Fprintln(c.out)
			return c.referee.Result(), err
		}
		if l.err != nil {
			fmt.Fprintln(c.out)
			if l.err == io.EOF {
				return c.referee.Result(), io.ErrUnexpectedEOF
			}
			return c.referee.Result(), l.err
		}

		round, err := c.referee.PlayRound(ctx, rules.Normalize(l.text))
		if err != nil {
			return c.referee.Result(), err
		}
		c.printRound(round)
	}

	result := c.referee.Result()
	c.printResult(result)
	return result, nil
}

// readLines reads input without a line length limit, so any line, however
// long, becomes a move submission. It stops after a read error or once done
// is closed.
func (c *Console) readLines(done <-chan struct{}) <-chan line {
	lines := make(chan line)
	go func() {
		for {
			text, err := c.in.ReadString('\n')
			if text != "" {
				select {
				case lines <- line{text: text}:
				case <-done:
					return
				}
			}
			if err != nil {
				select {
				case lines <- line{err: err}:
				case <-done:
				}
				return
			}
		}
	}()
	return lines
}

func (c *Console) explainRules() {
	n := c.referee.State().MaxRounds
	fmt.Fprintln(c.out, "Welcome to Rock-Paper-Scissors-Plus!")
	fmt.Fprintf(c.out, "Best of %d rounds.\n", n)
	fmt.Fprintln(c.out, "Moves: rock, paper, scissors, bomb (once per game).")
	fmt.Fprintln(c.out, "Bomb beats everything. Invalid input wastes the round.")
	fmt.Fprintf(c.out, "Game ends automatically after %d rounds.\n\n", n)
}

func (c *Console) printRound(r models.RoundResult) {
	played := string(r.HumanMove)
	if r.Wasted() {
		fmt.Fprintf(c.out, "Invalid move: %s\n", r.Error)
		played = r.Input
	}
	fmt.Fprintf(c.out, "You played: %s\n", played)
	fmt.Fprintf(c.out, "Bot played: %s\n", r.BotMove)
	fmt.Fprintf(c.out, "Round winner: %s\n", r.Winner)
	fmt.Fprintf(c.out, "Reason: %s\n", r.Reason)
	fmt.Fprintf(c.out, "Score -> You: %d | Bot: %d\n\n", r.HumanScore, r.BotScore)
}

func (c *Console) printResult(result models.GameResult) {
	fmt.Fprintln(c.out, "GAME OVER")
	switch result.Winner {
	case models.WinnerHuman:
		fmt.Fprintln(c.out, "Final Result: You win!")
	case models.WinnerBot:
		fmt.Fprintln(c.out, "Final Result: Bot wins!")
	default:
		fmt.Fprintln(c.out, "Final Result: Draw!")
	}
}
