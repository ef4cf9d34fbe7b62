// Package main is the entry point for the fightcareers CLI tool, which turns a
// two-sided bout dataset into fighter career timelines and title-bout views.
package main

import "github.com/pable/go-fight-careers/cmd"

func main() {
	cmd.Execute()
}
