// Command shadercheck compiles the embedded WGSL shaders to SPIR-V and
// reports per-shader results. It exits non-zero if any shader fails to
// compile.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/gogpu/naga"

	"github.com/bsvercl/ggez/graphics"
)

func main() {
	verbose := flag.Bool("v", false, "print SPIR-V word counts for successful compiles")
	flag.Parse()

	shaders := graphics.Shaders()
	names := make([]string, 0, len(shaders))
	for name := range shaders {
		names = append(names, name)
	}
	sort.Strings(names)

	failed := 0
	for _, name := range names {
		spirv, err := naga.Compile(shaders[name])
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", name, err)
			failed++
			continue
		}
		if *verbose {
			fmt.Printf("%s: ok (%d words)\n", name, len(spirv)/4)
		} else {
			fmt.Printf("%s: ok\n", name)
		}
	}
	if failed > 0 {
		os.Exit(1)
	}
}
