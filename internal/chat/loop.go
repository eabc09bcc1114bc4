package chat

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"alfredoptarigan/resume-agent/internal/models"
)

// Agent is the conversational backend the loop talks to.
type Agent interface {
	Send(ctx context.Context, sessionID, message string) (reply string, resolvedID string, err error)
}

// TextExtractor reads an attached file into plain text.
type TextExtractor interface {
	ExtractText(filePath string) (string, error)
	ExtractPlainText(filePath string) (string, error)
}

const (
	defaultFilePrompt = "Analyze this CV comprehensively."
	promptPreviewLen  = 100
)

var quitWords = map[string]bool{"quit": true, "exit": true, "bye": true, "q": true}

var menuPrompts = map[string]string{
	"1": "Parse this CV and extract all structured information in detail.",
	"2": "Evaluate this CV for ATS compatibility and provide a detailed score with recommendations.",
	"3": "Analyze this CV comprehensively and identify all issues categorized by severity.",
	"4": fmt.Sprintf("Extract the top %d most important keywords from this document.", models.DefaultKeywordCount),
}

const customChoice = "5"

type Loop struct {
	agent     Agent
	extractor TextExtractor
	detector  FileReferenceDetector
	in        *bufio.Scanner
	out       io.Writer
	exists    func(path string) bool

	sessionID string
}

func NewLoop(agent Agent, extractor TextExtractor, detector FileReferenceDetector, in io.Reader, out io.Writer) *Loop {
	if detector == nil {
		detector = NewRegexDetector()
	}
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	return &Loop{
		agent:     agent,
		extractor: extractor,
		detector:  detector,
		in:        scanner,
		out:       out,
		exists:    fileExists,
	}
}

// Run reads turns until a quit word, end of input or ctx cancellation.
// Per-turn errors are printed and the loop continues.
func (l *Loop) Run(ctx context.Context) error {
	l.printf("💼 Resume Agent ready. Type a message, a file path, or 'quit' to exit.\n")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, ok := l.prompt("\n💼 You: ")
		if !ok {
			return l.in.Err()
		}

		input := strings.TrimSpace(line)
		if quitWords[strings.ToLower(input)] {
			l.printf("\n✨ Thank you for using Resume Agent! Best of luck with your applications!\n")
			return nil
		}
		if input == "" {
			continue
		}

		ref, found := l.detector.DetectFileReference(line)
		if !found {
			l.send(ctx, input)
			continue
		}

		message, ok := l.fileMessage(ref)
		if !ok {
			continue
		}
		l.send(ctx, message)
	}
}

// fileMessage validates the referenced file, works out the request and
// attaches the extracted text. ok is false when the turn should be skipped.
func (l *Loop) fileMessage(ref FileReference) (string, bool) {
	if !l.exists(ref.Path) {
		l.printf("\n❌ Error: File not found at '%s'\nPlease check the path and try again.\n", ref.Path)
		return "", false
	}

	ext := models.ExtensionOf(ref.Path)
	supported := models.IsAllowedExtension(ext)
	if !supported {
		l.printf("\n⚠️  Warning: File type '%s' may not be fully supported.\n", ext)
		l.printf("Supported formats: %s\n", strings.Join(models.AllowedExtensions, ", "))
		answer, ok := l.prompt("Continue anyway? (y/n): ")
		if !ok || strings.ToLower(strings.TrimSpace(answer)) != "y" {
			return "", false
		}
	}

	l.printf("\n📄 Detected file: %s\n", filepath.Base(ref.Path))

	request, ok := l.fileRequest(ref)
	if !ok {
		return "", false
	}

	var (
		text string
		err  error
	)
	if supported {
		text, err = l.extractor.ExtractText(ref.Path)
	} else {
		text, err = l.extractor.ExtractPlainText(ref.Path)
	}
	if err != nil {
		l.printf("\n❌ Error processing file: %v\nPlease check the file format and try again.\n", err)
		return "", false
	}

	return fmt.Sprintf("%s\n\nAttached file (%s):\n%s", request, filepath.Base(ref.Path), text), true
}

func (l *Loop) fileRequest(ref FileReference) (string, bool) {
	if ref.Remaining != "" {
		l.printf("📝 Request: %s\n", preview(ref.Remaining))
		return ref.Remaining, true
	}

	l.printf("What would you like me to do with this file?\n")
	l.printf("  1. Parse CV and extract information\n")
	l.printf("  2. Evaluate ATS score\n")
	l.printf("  3. Analyze for issues\n")
	l.printf("  4. Extract keywords\n")
	l.printf("  5. Custom request (type your own)\n")

	choice, ok := l.prompt("\nYour choice (1-5): ")
	if !ok {
		return "", false
	}
	choice = strings.TrimSpace(choice)

	if choice == customChoice {
		custom, ok := l.prompt("Enter your request: ")
		custom = strings.TrimSpace(custom)
		if !ok || custom == "" {
			l.printf("No request provided. Skipping...\n")
			return "", false
		}
		return custom, true
	}

	if p, found := menuPrompts[choice]; found {
		return p, true
	}

	l.printf("Invalid choice. Using default analysis.\n")
	return defaultFilePrompt, true
}

func (l *Loop) send(ctx context.Context, message string) {
	reply, sessionID, err := l.agent.Send(ctx, l.sessionID, message)
	if sessionID != "" {
		l.sessionID = sessionID
	}
	if err != nil {
		l.printf("\n❌ Error: %v\n", err)
		return
	}
	l.printf("\n🤖 Agent: %s\n", reply)
}

func (l *Loop) prompt(label string) (string, bool) {
	l.printf("%s", label)
	if !l.in.Scan() {
		return "", false
	}
	return l.in.Text(), true
}

func (l *Loop) printf(format string, args ...interface{}) {
	fmt.Fprintf(l.out, format, args...)
}

func preview(s string) string {
	runes := []rune(s)
	if len(runes) <= promptPreviewLen {
		return s
	}
	return string(runes[:promptPreviewLen]) + "..."
}
