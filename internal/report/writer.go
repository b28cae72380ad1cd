package report

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

const maxSlugLen = 50

var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

// GenerateSlug turns a topic into a filesystem-friendly name.
func GenerateSlug(topic string) string {
	slug := strings.ToLower(topic)
	slug = slugRe.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > maxSlugLen {
		slug = strings.Trim(slug[:maxSlugLen], "-")
	}
	return slug
}

// CreateOutputDir creates a timestamped session directory under base.
func CreateOutputDir(base, slug string) (string, error) {
	dir := filepath.Join(base, fmt.Sprintf("%s-%s", slug, time.Now().Format("20060102-150405")))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("report: creating output dir: %w", err)
	}
	return dir, nil
}

// Writer persists session files: artifact.json, report.md and an
// append-as-you-go session.log.
type Writer struct {
	dir string
}

// NewWriter creates a Writer rooted at dir.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// WriteArtifact writes the JSON artifact.
func (w *Writer) WriteArtifact(a *Artifact) error {
	data, err := a.JSON()
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(w.dir, "artifact.json"), data, 0o644)
}

// Log appends a timestamped line to session.log immediately, so a crashed
// or cancelled session still leaves a trail.
func (w *Writer) Log(line string) {
	f, err := os.OpenFile(filepath.Join(w.dir, "session.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()
	fmt.Fprintf(f, "%s %s\n", time.Now().Format(time.RFC3339), line)
}

// WriteMarkdown renders the human-readable report.
func (w *Writer) WriteMarkdown(a *Artifact) error {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Debate: %s\n\n", a.Topic)
	if a.FailureReason != "" {
		fmt.Fprintf(&sb, "> **INCOMPLETE SESSION**: ended in state `%s` (%s). Only fully completed rounds are shown.\n\n", a.State, a.FailureReason)
	}

	for _, round := range a.Rounds {
		fmt.Fprintf(&sb, "## Round %d\n\n", round.Number)
		for _, arg := range round.Arguments {
			fmt.Fprintf(&sb, "### %s (%s)\n\n%s\n\n", arg.Perspective.Persona(), arg.Perspective, arg.Claim)
			if pool, ok := a.PoolFor(arg.Perspective); ok {
				for _, id := range arg.Citations {
					if item, found := pool.Lookup(id); found {
						fmt.Fprintf(&sb, "- [Source: %s] %s\n", item.URL, item.Title)
					}
				}
			}
			sb.WriteString("\n")
		}
	}

	if a.Evaluation != nil {
		sb.WriteString("## Evaluation\n\n")
		for _, p := range a.Perspectives {
			if analysis, ok := a.Evaluation.Analyses[p]; ok {
				fmt.Fprintf(&sb, "### %s\n\n- Strengths: %s\n- Weaknesses: %s\n\n", p, analysis.Strengths, analysis.Weaknesses)
			}
		}
		fmt.Fprintf(&sb, "### Recommendation\n\n%s\n\n", a.Evaluation.Recommendation)
		if a.Evaluation.Advice != "" {
			fmt.Fprintf(&sb, "### Compromise solutions\n\n%s\n", a.Evaluation.Advice)
		}
	}

	return os.WriteFile(filepath.Join(w.dir, "report.md"), []byte(sb.String()), 0o644)
}
