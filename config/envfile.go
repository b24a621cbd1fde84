package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"
)

// EnvLine is one KEY=value assignment from an env file.
type EnvLine struct {
	Key string
	Val string
}

// ParseEnvFile parses a dotenv style file. A missing file yields no lines.
func ParseEnvFile(filename string) ([]EnvLine, error) {
	buf, err := os.ReadFile(filename)
	if errors.Is(err, fs.ErrNotExist) {
		return []EnvLine{}, nil
	}
	if err != nil {
		return nil, err
	}
	return ParseEnvBuffer(buf), nil
}

// ParseEnvBuffer parses dotenv content. Blank lines and # comments are
// skipped, an optional "export " prefix is ignored, and values may reference
// earlier keys as ${KEY} or ${KEY:-default}, or the process environment as
// ${env:KEY}.
func ParseEnvBuffer(buf []byte) []EnvLine {
	envs := make([]EnvLine, 0)
	seen := make(map[string]string)
	for _, line := range strings.Split(string(buf), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")
		key, val, _ := strings.Cut(line, "=")
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		val = interpolate(dequote(strings.TrimSpace(val)), seen)
		seen[key] = val
		envs = append(envs, EnvLine{Key: key, Val: val})
	}
	return envs
}

func dequote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// interpolate expands ${...} references. Unresolved references without a
// default are left as written.
func interpolate(input string, vars map[string]string) string {
	if !strings.Contains(input, "${") {
		return input
	}
	var out strings.Builder
	rest := input
	for {
		start := strings.Index(rest, "${")
		if start < 0 {
			out.WriteString(rest)
			break
		}
		end := strings.IndexByte(rest[start:], '}')
		if end < 0 {
			out.WriteString(rest)
			break
		}
		end += start
		out.WriteString(rest[:start])
		ref := rest[start : end+1]
		name, def, _ := strings.Cut(ref[2:len(ref)-1], ":-")

		var val string
		if envKey, ok := strings.CutPrefix(name, "env:"); ok {
			val = os.Getenv(envKey)
		} else {
			val = vars[name]
		}
		switch {
		case name == "":
			out.WriteString(ref)
		case val != "":
			out.WriteString(val)
		case def != "":
			out.WriteString(def)
		default:
			out.WriteString(ref)
		}
		rest = rest[end+1:]
	}
	return out.String()
}
