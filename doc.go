/*
Package shade sets the desktop background of an X11 display by speaking the
display protocol directly: it provisions an off-screen pixmap sized to the
screen, publishes its id under the root pixmap convention atoms
(_XROOTPMAP_ID and ESETROOT_PMAP_ID), evicts whichever client owned the
background before, installs the pixmap as the root window's background and
marks it to outlive the process.

A command line interface lives in cmd/shade; run

	$ shade help

for the supported commands. Library use goes through a Loader:

	package main

	import (
		"image"
		"log"

		"github.com/yxnxs/shade"
	)

	func main() {
		loader := &shade.Loader{Display: ":0"}
		bg, err := loader.Load(shade.MakeNew())
		if err != nil {
			log.Fatalf("claim background: %v", err)
		}

		bg.Fill(shade.Pixel{R: 0x28, G: 0x2c, B: 0x34})
		bg.FillRect(image.Rect(0, 0, 1920, 24), shade.Pixel{R: 0x1d, G: 0x1f, B: 0x21})
		if err := bg.Flush(); err != nil {
			log.Fatalf("flush: %v", err)
		}
	}

The published pixmap and both properties survive process exit, so a shade
invocation (or any other tool honoring the convention) can later discover,
adopt or replace them.
*/
package shade
