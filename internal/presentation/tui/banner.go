package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the ASCII art banner for the interactive chat.
func PrintBanner(version string) {
	p := termenv.ColorProfile()
	// Subtle indigo-to-rose gradient, one color per line
	s1 := termenv.String(`   __                           _ _       _   `).Foreground(p.Color("#818cf8"))
	s2 := termenv.String(`  / _| ___  _ __ _ __ ___  _ __(_) | ___ | |_ `).Foreground(p.Color("#a78bfa"))
	s3 := termenv.String(` | |_ / _ \| '__| '_ ' _ \| '_ \ | |/ _ \| __|`).Foreground(p.Color("#c084fc"))
	s4 := termenv.String(` |  _| (_) | |  | | | | | | |_) | | | (_) | |_ `).Foreground(p.Color("#e879f9"))
	s5 := termenv.String(` |_|  \___/|_|  |_| |_| |_| .__/|_|_|\___/ \__|`).Foreground(p.Color("#f472b6"))
	s6 := termenv.String(`                          |_|                  `).Foreground(p.Color("#fb7185"))

	fmt.Println()
	fmt.Println(s1)
	fmt.Println(s2)
	fmt.Println(s3)
	fmt.Println(s4)
	fmt.Println(s5)
	fmt.Println(s6)
	fmt.Printf("  v%s\n\n", version)
}
