package main

import (
	"context"
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"

	"scoringd/internal/manager"
)

// runScore runs the pipeline once on src ("-" reads in) and writes the JSON
// response to out.
func runScore(ctx context.Context, o *rootOptions, src string, in io.Reader, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	log := o.logger
	mcfg, err := managerConfig(o.cfg, &log)
	if err != nil {
		return err
	}
	body := in
	if src != "-" {
		f, err := os.Open(src)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		body = f
	}
	resp, err := manager.NewWithConfig(mcfg).Score(ctx, body)
	if err != nil {
		return err
	}
	return json.NewEncoder(out).Encode(resp)
}

// runCheck loads the artifact and prints its description.
func runCheck(o *rootOptions, out io.Writer) error {
	log := o.logger
	mcfg, err := managerConfig(o.cfg, &log)
	if err != nil {
		return err
	}
	info, err := manager.NewWithConfig(mcfg).Check()
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(b))
	return err
}
