/*
	kbdlight changes the keyboard backlight level through sysfs
*/

package main

import "github.com/hoppxi/kbdlight/internal/cmd"

func main() {
	cmd.Execute()
}
