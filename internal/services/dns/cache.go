package dns

import (
	"strings"

	"nathanbeddoewebdev/dnsm/internal/util"
)

func cacheKey(parts ...string) string {
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" || part == "0" {
			continue
		}
		values = append(values, util.NormalizeKey(part))
	}
	if len(values) == 0 {
		return "dns"
	}
	return strings.Join(values, "_")
}
