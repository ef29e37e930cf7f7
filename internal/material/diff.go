package material

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/YangQing-Lin/springtint/internal/plisttree"
)

// NoDifferences is returned by GenerateDiff when both sides match.
const NoDifferences = "No differences found."

// DiffTrees 生成两个配方树的逐行 diff
func DiffTrees(oldTree, newTree plisttree.Dict, oldLabel, newLabel string) string {
	return GenerateDiff(plisttree.Dump(oldTree), plisttree.Dump(newTree), oldLabel, newLabel)
}

// GenerateDiff 生成两个文本之间的逐行 diff
func GenerateDiff(oldText, newText, oldLabel, newLabel string) string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(oldText, newText)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	changed := false
	for _, d := range diffs {
		if d.Type != diffmatchpatch.DiffEqual {
			changed = true
			break
		}
	}
	if !changed {
		return NoDifferences
	}

	var result strings.Builder
	result.WriteString(fmt.Sprintf("--- %s\n", oldLabel))
	result.WriteString(fmt.Sprintf("+++ %s\n", newLabel))
	for _, d := range diffs {
		prefix := " "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			result.WriteString(prefix + strings.TrimSuffix(line, "\n") + "\n")
		}
	}
	return result.String()
}

// FormatDiffForCLI 为 CLI 输出着色
func FormatDiffForCLI(diff string) string {
	var (
		header  = color.New(color.Bold)
		removed = color.New(color.FgRed)
		added   = color.New(color.FgGreen)
	)

	var result strings.Builder
	for _, line := range strings.Split(diff, "\n") {
		switch {
		case strings.HasPrefix(line, "---"), strings.HasPrefix(line, "+++"):
			result.WriteString(header.Sprint(line))
		case strings.HasPrefix(line, "-"):
			result.WriteString(removed.Sprint(line))
		case strings.HasPrefix(line, "+"):
			result.WriteString(added.Sprint(line))
		default:
			result.WriteString(line)
		}
		result.WriteString("\n")
	}
	return result.String()
}
