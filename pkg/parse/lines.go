package parse

import "strings"

// Lines gathers input lines into statements. A statement may span lines;
// it ends at a line whose last non-comment character is a period. Text
// after a % is a comment.
type Lines struct {
	current   []string
	lineNo    int
	startLine int
}

// Add feeds one line in. When it completes a statement, Add returns the
// statement joined onto one line, and true.
func (l *Lines) Add(line string) (string, bool) {
	l.lineNo++
	if idx := strings.Index(line, "%"); idx >= 0 {
		line = line[:idx]
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "", false
	}
	if len(l.current) == 0 {
		l.startLine = l.lineNo
	}
	l.current = append(l.current, line)
	if !strings.HasSuffix(line, ".") {
		return "", false
	}
	stmt := strings.Join(l.current, " ")
	l.current = nil
	return stmt, true
}

// Pending reports whether a statement has been started but not finished.
func (l *Lines) Pending() bool {
	return len(l.current) > 0
}

// StartLine is the 1-based line the pending or last finished statement
// began on.
func (l *Lines) StartLine() int {
	return l.startLine
}

// Discard drops a pending statement.
func (l *Lines) Discard() {
	l.current = nil
}
