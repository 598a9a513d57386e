package errors

import (
	"fmt"
	"runtime"
)

type Error struct {
	Cause    error
	Location string
}

func Wrap(err error, skip int) error {
	if err == nil {
		return nil
	}

	c := &Error{
		Cause:    err,
		Location: getLocation(skip),
	}

	return c
}

func (w *Error) Error() string {
	return w.Cause.Error()
}

func (w *Error) Unwrap() error {
	return w.Cause
}

func (w *Error) Format(s fmt.State, verb rune) {
	fmt.Fprintf(s, "%s\n", w.Cause.Error())
	fmt.Fprintf(s, "\t%s\n", w.Location)
}

func getLocation(skip int) string {
	_, file, line, _ := runtime.Caller(2 + skip)
	return fmt.Sprintf("%s:%d", file, line)
}
