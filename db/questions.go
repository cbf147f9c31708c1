package db

import (
	"bufio"
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	"github.com/airylvat/trivia-rounds/trivia"
)

// Dir draws questions from a directory of text files holding one
// question`answer line each.
type Dir struct {
	path string
}

func NewDir(path string) *Dir {
	return &Dir{path: path}
}

// Random picks a random file, then a random line from it.
func (d *Dir) Random(_ context.Context) (trivia.Question, error) {
	files, err := questionFiles(d.path)
	if err != nil {
		return trivia.Question{}, err
	}
	if len(files) == 0 {
		return trivia.Question{}, fmt.Errorf("%w in %s", trivia.ErrNoQuestions, d.path)
	}

	lines, err := readLines(files[rand.IntN(len(files))])
	if err != nil {
		return trivia.Question{}, err
	}
	if len(lines) == 0 {
		return trivia.Question{}, fmt.Errorf("%w: empty file", trivia.ErrMalformedQuestion)
	}
	return trivia.ParseQuestion(lines[rand.IntN(len(lines))])
}

// ReadQuestionLines returns every line of every file in dir.
func ReadQuestionLines(dir string) ([]string, error) {
	files, err := questionFiles(dir)
	if err != nil {
		return nil, err
	}
	var all []string
	for _, f := range files {
		lines, err := readLines(f)
		if err != nil {
			return nil, err
		}
		all = append(all, lines...)
	}
	return all, nil
}

func questionFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read question dir: %w", err)
	}
	var files []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	return files, nil
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, strings.TrimRight(sc.Text(), "\r"))
	}
	return lines, sc.Err()
}
