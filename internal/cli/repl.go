package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
)

// Prompt is printed before each read when the session is interactive.
const Prompt = "Enter command: "

// dispatcher is the minimal command surface the loop needs. *App satisfies
// this interface; tests can provide a lightweight stub.
type dispatcher interface {
	Dispatch(ctx context.Context, cmd Command) (bool, error)
	Usage()
}

// Run drives the command loop: prompt, read one line, parse, dispatch,
// render. Malformed input prints the usage block and the loop continues.
//
// The loop has no quit command. It ends cleanly (nil) when the input stream
// is exhausted, and with an error when the read fails or the store reports a
// failure — storage errors are fatal and propagate to the caller untouched.
func Run(ctx context.Context, d dispatcher, scanner *bufio.Scanner, out io.Writer, interactive bool) error {
	for {
		if interactive {
			fmt.Fprint(out, Prompt)
		}
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("read command: %w", err)
			}
			return nil
		}

		ok, err := d.Dispatch(ctx, Parse(scanner.Text()))
		if err != nil {
			return err
		}
		if !ok {
			d.Usage()
		}
	}
}
