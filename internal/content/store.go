// Package content owns the read-only campaign datasets: one line per day
// for clues, questions and authors, delimiter-separated blocks for text
// fragments, and a directory of per-day images.
package content

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Dataset file names under the data directory
const (
	cluesFile     = "clues.txt"
	questionsFile = "questions.txt"
	authorsFile   = "authors.txt"
	textsFile     = "texts.txt"
	imagesDir     = "images"
)

// Fragment delimiter in texts.txt; fragments may span multiple lines
const fragmentDelimiter = "---"

// Sentinel values returned for out-of-range lookups. Lookups never fail;
// a missing dataset is a startup error, not a per-call one.
const (
	ClueNotFound     = "Улика не найдена"
	QuestionFallback = "Вопрос дня"
	AuthorFallback   = "Автор"
)

// Store holds the loaded datasets. It is populated once at startup and
// owned by the process; Reload picks up dataset edits without a restart.
type Store struct {
	dir string

	mu        sync.RWMutex
	clues     []string
	questions []string
	authors   []string
	fragments []string
}

// New validates that every dataset file and the image directory exist under
// dir, then loads the datasets. A missing file is a fatal startup
// precondition for the caller.
func New(dir string) (*Store, error) {
	for _, name := range []string{cluesFile, questionsFile, authorsFile, textsFile} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("required dataset %s: %w", path, err)
		}
	}
	images := filepath.Join(dir, imagesDir)
	if info, err := os.Stat(images); err != nil {
		return nil, fmt.Errorf("required image directory %s: %w", images, err)
	} else if !info.IsDir() {
		return nil, fmt.Errorf("required image directory %s is not a directory", images)
	}

	s := &Store{dir: dir}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload re-reads all datasets from disk
func (s *Store) Reload() error {
	clues, err := readLines(filepath.Join(s.dir, cluesFile))
	if err != nil {
		return fmt.Errorf("load clues: %w", err)
	}
	questions, err := readLines(filepath.Join(s.dir, questionsFile))
	if err != nil {
		return fmt.Errorf("load questions: %w", err)
	}
	authors, err := readLines(filepath.Join(s.dir, authorsFile))
	if err != nil {
		return fmt.Errorf("load authors: %w", err)
	}
	fragments, err := readFragments(filepath.Join(s.dir, textsFile))
	if err != nil {
		return fmt.Errorf("load text fragments: %w", err)
	}

	s.mu.Lock()
	s.clues = clues
	s.questions = questions
	s.authors = authors
	s.fragments = fragments
	s.mu.Unlock()
	return nil
}

// Clue returns the clue for the given 1-based day, or a sentinel when the
// day is out of range.
func (s *Store) Clue(day int) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lineForDay(s.clues, day, ClueNotFound)
}

// Question returns the question for the given day, or a sentinel
func (s *Store) Question(day int) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lineForDay(s.questions, day, QuestionFallback)
}

// Author returns the author for the given day, or a sentinel
func (s *Store) Author(day int) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lineForDay(s.authors, day, AuthorFallback)
}

// TextFragment returns the unlockable fragment for the given day. Fragments
// exist only every third day: day 3 maps to fragment 1, day 6 to fragment 2
// and so on. The second return is false when no fragment is defined.
func (s *Store) TextFragment(day int) (string, bool) {
	if day <= 0 || day%3 != 0 {
		return "", false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := day/3 - 1
	if idx < 0 || idx >= len(s.fragments) {
		return "", false
	}
	return s.fragments[idx], true
}

// ImagePath resolves the image for the given day, trying .jpg then .png.
// Returns "" when neither file exists.
func (s *Store) ImagePath(day int) string {
	for _, ext := range []string{".jpg", ".png"} {
		path := filepath.Join(s.dir, imagesDir, fmt.Sprintf("%d%s", day, ext))
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// WelcomeImagePath resolves the backstory illustration, "" when absent
func (s *Store) WelcomeImagePath() string {
	path := filepath.Join(s.dir, imagesDir, "welcome.jpg")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// lineForDay resolves a 1-based day against a 0-indexed line list
func lineForDay(lines []string, day int, fallback string) string {
	if day < 1 || day > len(lines) {
		return fallback
	}
	return lines[day-1]
}

// readLines reads a dataset of one entry per non-empty line
func readLines(path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var lines []string
	for _, line := range strings.Split(string(raw), "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines, nil
}

// readFragments reads a dataset of multi-line blocks separated by the
// fragment delimiter.
func readFragments(path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var fragments []string
	for _, block := range strings.Split(string(raw), fragmentDelimiter) {
		if trimmed := strings.TrimSpace(block); trimmed != "" {
			fragments = append(fragments, trimmed)
		}
	}
	return fragments, nil
}
