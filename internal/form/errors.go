package form

import (
	"errors"
	"fmt"
)

// Input errors carry the message shown to the user.

// ErrNoFileSelected is returned by Content in pdf mode when no file was chosen
var ErrNoFileSelected = errors.New("Please select a PDF file to analyze.")

// EmptyInputError is returned when the active input is blank
type EmptyInputError struct {
	Mode    Mode
	Message string
}

func (e *EmptyInputError) Error() string {
	return e.Message
}

// FileReadError is returned when the selected file cannot be read
type FileReadError struct {
	Path string
	Err  error
}

func (e *FileReadError) Error() string {
	return "Error reading PDF file."
}

func (e *FileReadError) Unwrap() error {
	return e.Err
}

// InvalidURLError is returned when the URL is not well formed
type InvalidURLError struct {
	URL string
	Err error
}

func (e *InvalidURLError) Error() string {
	return "Please enter a valid URL."
}

func (e *InvalidURLError) Unwrap() error {
	return e.Err
}

// UnsupportedFileError is returned by SelectFile for anything but a PDF
type UnsupportedFileError struct {
	Path string
	Type string
}

func (e *UnsupportedFileError) Error() string {
	return fmt.Sprintf("Only PDF files are supported (%s is %s).", e.Path, e.Type)
}
