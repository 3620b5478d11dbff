package main

import (
	"fmt"
	"os"

	"github.com/gookit/color"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		color.Red.Println(err)
		os.Exit(1)
	}
}

func printBanner() {
	color.Cyan.Println(fmt.Sprintf(`
 __      __      __              ___
/\ \  __/\ \  __/\ \            /'___\
\ \ \/\ \ \ \/\ \ \ \      __  /\ \__/
 \ \ \ \ \ \ \ \ \ \ \   /'__'\\ \ ,__\
  \ \ \_/ \_\ \ \_\ \ \_/\  __/ \ \ \_/
   \ \___x___/\/\_\\ \_\ \____\ \ \_\
    \/__//__/   \/_/ \/_/\/____/  \/_/   wakeproxy`))
}
