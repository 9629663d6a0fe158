// Copyright (c) 2026 QStd Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package schema

import (
	"fmt"
	"strings"
)

// RenderEnvHelp renders a human readable listing of the given fields,
// one line per field:
//
//	NAME (type) - description [default: value]
//
// The description and default sections are omitted when the field
// declares neither.
func RenderEnvHelp(fields []EnvironmentField) string {
	var sb strings.Builder
	for i, field := range fields {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "%s (%s)", field.Name, field.Type.String())
		if desc := strings.TrimSpace(field.Description); desc != "" {
			sb.WriteString(" - ")
			sb.WriteString(desc)
		}
		if field.HasDefault {
			fmt.Fprintf(&sb, " [default: %s]", field.Default)
		}
	}
	return sb.String()
}
