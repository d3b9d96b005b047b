package open

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Zuo-Peng/replay-coach/internal/index"
	"github.com/Zuo-Peng/replay-coach/internal/report"
)

// OpenReport opens a report file in $EDITOR. A hit on a feedback note opens
// feedback.txt at that line; anything else opens report.json.
func OpenReport(db *index.DB, key string, hitNoteID int) error {
	path, line, err := Target(db, key, hitNoteID)
	if err != nil {
		return err
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "less"
	}

	return openInEditor(editor, path, line)
}

// Target resolves the file and line OpenReport would open.
func Target(db *index.DB, key string, hitNoteID int) (string, int, error) {
	row, err := db.GetReportByKey(key)
	if err != nil {
		return "", 0, fmt.Errorf("get report: %w", err)
	}
	if row == nil {
		return "", 0, fmt.Errorf("report not found: %s", key)
	}

	path := filepath.Join(row.ReportDir, report.ReportFile)
	line := 1
	if hitNoteID >= 0 {
		notes, err := db.GetNotes(key)
		if err == nil {
			for _, n := range notes {
				if n.NoteID == hitNoteID && n.Kind == index.NoteFeedback {
					path = filepath.Join(row.ReportDir, report.FeedbackFile)
					line = n.LineNumber
					break
				}
			}
		}
	}

	if _, err := os.Stat(path); err != nil {
		return "", 0, fmt.Errorf("file not found: %s", path)
	}
	return path, line, nil
}

func openInEditor(editor, filePath string, lineNum int) error {
	var cmd *exec.Cmd

	switch {
	case strings.Contains(editor, "vim") || strings.Contains(editor, "nvim"):
		cmd = exec.Command(editor, fmt.Sprintf("+%d", lineNum), filePath)
	case strings.Contains(editor, "code"):
		cmd = exec.Command(editor, "--goto", filePath+":"+strconv.Itoa(lineNum))
	case strings.Contains(editor, "less"):
		cmd = exec.Command(editor, "+"+strconv.Itoa(lineNum), filePath)
	default:
		cmd = exec.Command(editor, filePath)
	}

	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
