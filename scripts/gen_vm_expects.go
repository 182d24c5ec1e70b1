// gen_vm_expects turns every vmTestCase expect and with builder method that
// takes arguments into a free function returning a vmTestCase wrapper, so
// that test tables can pass them around as values.
package main

import (
	"bufio"
	"bytes"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"regexp"
	"time"

	"golang.org/x/net/context"
	"golang.org/x/sync/errgroup"
)

type namedReader interface {
	io.ReadCloser
	Name() string
}

var builderMethod = regexp.MustCompile(`func \(vmt vmTestCase\) (expect|with)(.+?)\((.+?)\) vmTestCase`)

func main() {
	flag.Parse()
	var (
		in  namedReader    = os.Stdin
		out io.WriteCloser = os.Stdout
	)
	args := flag.Args()
	if len(args) > 0 {
		f, err := os.Open(args[0])
		if err != nil {
			log.Fatalf("failed to open %v: %v", args[0], err)
		}
		in = f
	}
	if len(args) > 1 {
		f, err := os.Create(args[1])
		if err != nil {
			log.Fatalf("failed to create %v: %v", args[1], err)
		}
		out = f
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// generated source goes through goimports, which also adds any imports
	// that argument types need
	pr, pw := io.Pipe()
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		defer out.Close()
		cmd := exec.CommandContext(ctx, "goimports")
		cmd.Stdin = pr
		cmd.Stdout = out
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			pr.CloseWithError(err)
			return fmt.Errorf("goimports failed: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		defer in.Close()
		err := generate(ctx, in, pw, args)
		pw.CloseWithError(err)
		return err
	})
	if err := eg.Wait(); err != nil {
		log.Fatalln(err)
	}
}

func generate(ctx context.Context, in namedReader, out io.Writer, args []string) error {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "package main\n\n// @generated from %v\n\n", in.Name())
	if len(args) >= 2 {
		fmt.Fprintf(&buf, "//go:generate go run scripts/gen_vm_expects.go --")
		for _, arg := range args {
			fmt.Fprintf(&buf, " %v", arg)
		}
		buf.WriteString("\n\n")
	}

	sc := bufio.NewScanner(in)
	for sc.Scan() {
		if match := builderMethod.FindSubmatch(sc.Bytes()); len(match) > 0 {
			writeWrapper(&buf, string(match[1]), string(match[2]), match[3])
		}
		if _, err := buf.WriteTo(out); err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	return sc.Err()
}

// writeWrapper writes e.g. expectVMStack(values ...Cell) for a method
// expectStack(values ...Cell); params must each carry their own type.
func writeWrapper(buf *bytes.Buffer, base, what string, params []byte) {
	fmt.Fprintf(buf, "func %sVM%s(%s) func(vmTestCase) vmTestCase {\n", base, what, params)
	fmt.Fprintf(buf, "\treturn func(vmt vmTestCase) vmTestCase {\n")
	fmt.Fprintf(buf, "\t\treturn vmt.%s%s(", base, what)
	for i, param := range bytes.Split(params, []byte(",")) {
		if i > 0 {
			buf.WriteString(", ")
		}
		fields := bytes.Fields(param)
		buf.Write(fields[0])
		if len(fields) > 1 && bytes.HasPrefix(fields[1], []byte("...")) {
			buf.WriteString("...")
		}
	}
	buf.WriteString(")\n\t}\n}\n\n")
}
