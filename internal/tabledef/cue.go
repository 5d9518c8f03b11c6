package tabledef

import (
	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// loadCUE compiles a single CUE file and decodes it into a Definition.
//
// The file must evaluate to one concrete struct; CUE constraints and
// defaults are resolved before decoding, so definitions can use CUE's
// expressiveness (string interpolation, list comprehensions, shared
// fragments) as long as the result is concrete.
func loadCUE(path string, data []byte) (*Definition, error) {
	ctx := cuecontext.New()

	val := ctx.CompileBytes(data, cue.Filename(path))
	if err := val.Err(); err != nil {
		return nil, loadErrorf(ErrCodeParse, path, "compiling CUE: %v", err)
	}

	if err := val.Validate(cue.Concrete(true)); err != nil {
		return nil, loadErrorf(ErrCodeParse, path, "definition is not concrete: %v", err)
	}

	var def Definition
	if err := val.Decode(&def); err != nil {
		return nil, loadErrorf(ErrCodeParse, path, "decoding CUE definition: %v", err)
	}
	return &def, nil
}
