// ./internal/arch/arch_test.go
package arch

import (
	"bytes"
	"encoding/json"
	"io"
	"os/exec"
	"strings"
	"testing"
)

type pkg struct {
	ImportPath string
	Imports    []string
	Standard   bool
}

func TestImportBoundaries(t *testing.T) {
	cmd := exec.Command("go", "list", "-json", "phrasex/...")
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		t.Fatalf("go list: %v", err)
	}
	dec := json.NewDecoder(&out)

	apps := []string{
		"phrasex/internal/app", "phrasex/internal/appcore", "phrasex/internal/cli",
		"phrasex/internal/distortapp", "phrasex/internal/bleuapp", "phrasex/internal/spansapp",
		"phrasex/cmd/",
	}
	bans := map[string][]string{
		// Library code stays free of the CLI stack.
		"phrasex/core/":             {"phrasex/internal/", "phrasex/cmd/"},
		"phrasex/internal/pipeline": append([]string{"phrasex/internal/writers"}, apps...),
		"phrasex/internal/writers":  append([]string{"phrasex/internal/pipeline"}, apps...),
		"phrasex/internal/metrics":  apps,
		"phrasex/internal/config":   apps,
		"phrasex/internal/logging":  apps,
		"phrasex/pkg/api":           {"phrasex/internal/", "phrasex/core/", "phrasex/cmd/"},
	}

	var violations []string
	for {
		var p pkg
		if err := dec.Decode(&p); err == io.EOF {
			break
		} else if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !strings.HasPrefix(p.ImportPath, "phrasex/") {
			continue
		}
		imp := p.ImportPath
		for prefix, forbidden := range bans {
			if !strings.HasPrefix(imp, prefix) {
				continue
			}
			for _, dep := range p.Imports {
				if !strings.HasPrefix(dep, "phrasex/") {
					continue
				}
				for _, ban := range forbidden {
					if strings.HasPrefix(dep, ban) {
						violations = append(violations, imp+" → "+dep)
					}
				}
			}
		}
	}

	if len(violations) > 0 {
		t.Fatalf("import boundary violations:\n  %s", strings.Join(violations, "\n  "))
	}
}
