package reporter

import (
	"errors"
	"log"
)

// Reporter delivers run status messages.
type Reporter interface {
	SendStatus(message string) error
	SendError(err error) error
}

// LogReporter writes messages to the standard logger.
type LogReporter struct{}

func (LogReporter) SendStatus(message string) error {
	log.Printf("📣 %s", message)
	return nil
}

func (LogReporter) SendError(err error) error {
	log.Printf("📣 ❌ %v", err)
	return nil
}

// Multi fans a message out to every reporter and joins their errors.
type Multi []Reporter

func (m Multi) SendStatus(message string) error {
	var errs []error
	for _, r := range m {
		if err := r.SendStatus(message); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) SendError(err error) error {
	var errs []error
	for _, r := range m {
		if serr := r.SendError(err); serr != nil {
			errs = append(errs, serr)
		}
	}
	return errors.Join(errs...)
}
