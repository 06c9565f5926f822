// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	bestStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	cellStyle   = lipgloss.NewStyle().Width(10).Align(lipgloss.Right)
	nameStyle   = lipgloss.NewStyle().Width(12).Align(lipgloss.Left)
)

// renderTable renders rows with a styled header; the first column is left aligned
//  highlight marks one row with bestStyle; use -1 for none
func renderTable(header []string, rows [][]string, highlight int) string {
	var sb strings.Builder
	line := func(cells []string, style *lipgloss.Style) {
		for k, c := range cells {
			var s string
			if k == 0 {
				s = nameStyle.Render(c)
			} else {
				s = cellStyle.Render(c)
			}
			if style != nil {
				s = style.Render(s)
			}
			sb.WriteString(s)
		}
		sb.WriteString("\n")
	}
	line(header, &headerStyle)
	for i, r := range rows {
		if i == highlight {
			line(r, &bestStyle)
			continue
		}
		line(r, nil)
	}
	return sb.String()
}
