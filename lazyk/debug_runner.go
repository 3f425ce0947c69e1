package lazyk

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// DebugRunner wraps a Runner with an interactive command loop, you can
// drive the program output byte by byte through stdio.
// commands:
//   s [n]:
//     force the next n output bytes (default 1).
//   p [root]:
//     print runner state, or the serialized stream root.
//   c:
//     run until the stream terminates.
//   r:
//     reset the heap and reload the program.
//   q:
//     quit.
// Prompts and state go to stderr so program output stays clean.
type DebugRunner struct {
	*Runner
}

func NewDebugRunner(r *Runner) *DebugRunner {
	return &DebugRunner{Runner: r}
}

func (d *DebugRunner) basePrint() {
	live, free := d.heap.stats()
	fmt.Fprintln(os.Stderr, "--------------------------------------------------")
	fmt.Fprintf(os.Stderr, "Emitted bytes: %d\n", d.emitted)
	fmt.Fprintf(os.Stderr, "Heap: len=%d, live=%d, free=%d, fresh=%d\n",
		len(d.heap.nodes), live, free, d.heap.fresh)
}

func (d *DebugRunner) printCommand(args []string) {
	if len(args) < 2 {
		d.basePrint()
		return
	}
	switch args[1] {
	case "r", "root":
		fmt.Fprintln(os.Stderr, d.heap.dump(d.start))
	default:
		d.basePrint()
	}
}

// stepCommand forces n output bytes and reports whether the stream
// terminated while doing so.
func (d *DebugRunner) stepCommand(args []string) (bool, error) {
	n := 1
	if len(args) >= 2 {
		v, err := strconv.Atoi(args[1])
		if err != nil {
			return false, fmt.Errorf("unknown step count %q", args[1])
		}
		n = v
	}
	for i := 0; i < n; i++ {
		b, done, err := d.Runner.Step()
		if err != nil {
			return false, err
		}
		if done {
			return true, nil
		}
		d.out.Flush()
		fmt.Fprintf(os.Stderr, "Emitted 0x%02x\n", b)
	}
	return false, nil
}

// Run reads commands until the stream terminates or the user quits.
func (d *DebugRunner) Run() error {
	defer d.out.Flush()
	in := bufio.NewReader(os.Stdin)
	for {
		fmt.Fprint(os.Stderr, "Debugger mode, 'q' to quit \n>> ")
		line, err := in.ReadString('\n')
		if err != nil {
			return nil
		}
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		switch args[0] {
		case "p", "print":
			d.printCommand(args)
		case "s", "step":
			done, err := d.stepCommand(args)
			d.basePrint()
			if err != nil {
				return err
			}
			if done {
				fmt.Fprintln(os.Stderr, "Stream terminated.")
				return nil
			}
		case "c", "continue":
			return d.Runner.Run()
		case "r", "reset":
			d.Reset()
		case "q", "quit":
			fmt.Fprintln(os.Stderr, "Quitting.")
			return nil
		default:
			fmt.Fprintf(os.Stderr, "Unknown command %q\n", args[0])
		}
	}
}
