package profile

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
)

type studentsDoc struct {
	Students []string `json:"students"`
}

// Parse accepts a JSON array of names, a JSON object with a "students"
// array, or one name per line.
func Parse(text string) ([]string, error) {
	text = trim(text)
	var raw []string
	switch {
	case strings.HasPrefix(text, "["):
		if err := json.Unmarshal([]byte(text), &raw); err != nil {
			return nil, eris.Wrap(ErrInvalidImport, "malformed JSON array")
		}
	case strings.HasPrefix(text, "{"):
		var doc studentsDoc
		if err := json.Unmarshal([]byte(text), &doc); err != nil {
			return nil, eris.Wrap(ErrInvalidImport, "malformed JSON object")
		}
		raw = doc.Students
	default:
		scanner := bufio.NewScanner(strings.NewReader(text))
		for scanner.Scan() {
			raw = append(raw, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, eris.Wrap(ErrInvalidImport, err.Error())
		}
	}

	students := clean(raw)
	if len(students) == 0 {
		return nil, eris.Wrap(ErrInvalidImport, "no students found")
	}
	return students, nil
}

// ReadFile loads import text from path, or from stdin when path is "-".
func ReadFile(path string) (string, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", eris.Wrapf(err, "failed to read %s", path)
	}
	return string(data), nil
}

func clean(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, name := range raw {
		name = trim(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

func trim(s string) string {
	return strings.TrimSpace(strings.TrimPrefix(s, "\ufeff"))
}
