package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// readEncodedTemplate loads the first non-empty line of a template file
// and decodes it with the context's configured decoder.
func readEncodedTemplate(ctx *commandContext, path string) ([]byte, error) {
	decoder, err := ctx.decoder()
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open template file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		template, err := decoder.Decode([]byte(line))
		if err != nil {
			return nil, fmt.Errorf("decode template from %s: %w", path, err)
		}
		if len(template) == 0 {
			continue
		}
		return template, nil
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read template file: %w", err)
	}
	return nil, fmt.Errorf("no template data in %s", path)
}
