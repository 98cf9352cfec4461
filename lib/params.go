package lib

import (
	"fmt"
	"strings"
)

// ParseHeadersArg converts repeated "Name: value" header flags into a
// header map. Later duplicates override earlier ones.
func ParseHeadersArg(args []string) (map[string]string, error) {
	headers := make(map[string]string)
	for _, arg := range args {
		name, value, found := strings.Cut(arg, ":")
		if !found {
			return nil, fmt.Errorf("invalid header %q, expected \"Name: value\"", arg)
		}
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("invalid header %q, empty name", arg)
		}
		headers[name] = strings.TrimSpace(value)
	}
	return headers, nil
}
