// Package prompt asks the user for passwords, text and confirmations.
//
// A Prompter reads answers line by line from any io.Reader. When the reader
// is a terminal, passwords are read without echo using golang.org/x/term.
// Prompts go to the configured writer, colored with fatih/color.
package prompt
