// Package engines lists the available memory engines.
package engines

import (
	"github.com/bububa/textchunker/components/memory/engines/chromem"
	"github.com/bububa/textchunker/components/memory/engines/memory"
)

var (
	FromChromem = chromem.New
	FromMemory  = memory.New
)
