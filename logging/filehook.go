package logging

import (
	"os"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// FileHook appends every entry as a JSON line to a file
type FileHook struct {
	mu        sync.Mutex
	file      *os.File
	formatter logrus.Formatter
}

func NewFileHook(path string) (*FileHook, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, errors.Wrap(err, "unable to open log file")
	}

	return &FileHook{file: file, formatter: &logrus.JSONFormatter{}}, nil
}

func (hook *FileHook) Fire(entry *logrus.Entry) error {
	line, err := hook.formatter.Format(entry)
	if err != nil {
		return err
	}

	hook.mu.Lock()
	defer hook.mu.Unlock()
	_, err = hook.file.Write(line)
	return err
}

func (hook *FileHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (hook *FileHook) Close() error {
	return hook.file.Close()
}
