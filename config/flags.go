package config

import (
	"flag"
	"fmt"
	"strconv"
)

// seedValue parses a seed as an unsigned 32-bit integer, rejecting wider values
type seedValue struct {
	p *uint32
}

func (v seedValue) String() string {
	if v.p == nil {
		return "0"
	}
	return strconv.FormatUint(uint64(*v.p), 10)
}

func (v seedValue) Set(s string) error {
	n, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return fmt.Errorf("seed must be in [0, %d]", uint64(1<<32-1))
	}
	*v.p = uint32(n)
	return nil
}

// SeedVar registers a -name flag writing a uint32 seed into p
func SeedVar(fs *flag.FlagSet, p *uint32, name, usage string) {
	fs.Var(seedValue{p}, name, usage)
}
