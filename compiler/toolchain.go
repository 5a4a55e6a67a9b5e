package main

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

const buildTimeout = 2 * time.Minute

// buildC runs `cc -o bin cFile`. A compiler that hangs is killed after buildTimeout.
func buildC(ctx context.Context, cc, cFile, bin string, stdout, stderr io.Writer) error {
	ctx, cancel := context.WithTimeout(ctx, buildTimeout)
	defer cancel()
	cmd := exec.CommandContext(ctx, cc, "-o", bin, cFile)
	cmd.Stdout, cmd.Stderr = stdout, stderr
	err := cmd.Run()
	if err != nil {
		return fmt.Errorf("%s -o %s %s: %w", cc, bin, cFile, err)
	}
	return nil
}

// runBinary runs the built program until it exits or ctx is done. The program may read stdin for INPUT.
func runBinary(ctx context.Context, bin string, stdin io.Reader, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, binaryPath(bin))
	cmd.Stdin, cmd.Stdout, cmd.Stderr = stdin, stdout, stderr
	err := cmd.Run()
	if err != nil {
		return fmt.Errorf("run %s: %w", bin, err)
	}
	return nil
}

// binaryPath makes a bare file name relative to the working directory, exec would look it up in PATH otherwise.
func binaryPath(bin string) string {
	if filepath.IsAbs(bin) || strings.ContainsRune(bin, filepath.Separator) {
		return bin
	}
	return "." + string(filepath.Separator) + bin
}
