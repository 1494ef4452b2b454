// Package main implements the par command line.
//
// Every command opens the store under an exclusive lock on the data
// directory, builds a navigation session, and runs one operation against it.
// `par review` keeps the session open and reads one command per line.
package main
