package main

import (
	"fmt"

	"github.com/eiannone/keyboard"
)

const maxListed = 10

// confirmRemoval lists the records a hard delete would purge and waits for a
// single y/n key press.
func confirmRemoval(paths []string) bool {
	fmt.Printf("\n%d file(s) are no longer on disk:\n", len(paths))
	for i, p := range paths {
		if i == maxListed {
			fmt.Printf("  ... and %d more\n", len(paths)-maxListed)
			break
		}
		fmt.Printf("  %s\n", p)
	}
	ok, err := confirm("Delete their catalog records, including tags?")
	if err != nil {
		env.log.Warn("confirmation unavailable, records retained", "error", err)
		return false
	}
	return ok
}

func confirm(prompt string) (bool, error) {
	fmt.Printf("%s [y/N] ", prompt)
	char, key, err := keyboard.GetSingleKey()
	if err != nil {
		fmt.Println()
		return false, err
	}
	if key == keyboard.KeyEnter || key == keyboard.KeyEsc || key == keyboard.KeyCtrlC {
		fmt.Println()
		return false, nil
	}
	fmt.Println(string(char))
	return char == 'y' || char == 'Y', nil
}
