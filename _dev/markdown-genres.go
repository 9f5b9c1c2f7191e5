package main

import (
	"fmt"

	"github.com/wader/id3edit/internal/genre"
)

func main() {
	fmt.Print("|Id|Genre|\n")
	fmt.Print("|-|-|\n")
	for i, name := range genre.Choices() {
		id := ""
		if _, ok := genre.ID(name); ok {
			id = fmt.Sprint(i)
		}
		fmt.Printf("|%s|%s|\n", id, name)
	}
}
