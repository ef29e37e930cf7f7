package material

import (
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/YangQing-Lin/springtint/internal/catalog"
	"github.com/YangQing-Lin/springtint/internal/errs"
	"github.com/YangQing-Lin/springtint/internal/plisttree"
)

const (
	// DefaultPaddingKey names the filler entry added to reach the target size.
	DefaultPaddingKey = "_padding"
	// DefaultMaxIterations bounds re-encodes per padding key length.
	DefaultMaxIterations = 32
	// maxKeyGrowth bounds how many characters are appended to the padding key.
	// Growing the key shifts the encoded size by one byte where the blob
	// length alone jumps over the target.
	maxKeyGrowth = 12
)

// Synthesizer produces recipes whose encoding is exactly a given size.
type Synthesizer struct {
	Format        plisttree.Format
	MaxIterations int
	PaddingKey    string
	Logger        hclog.Logger
}

func (s Synthesizer) paddingKey() string {
	if s.PaddingKey == "" {
		return DefaultPaddingKey
	}
	return s.PaddingKey
}

func (s Synthesizer) maxIterations() int {
	if s.MaxIterations <= 0 {
		return DefaultMaxIterations
	}
	return s.MaxIterations
}

func (s Synthesizer) logger() hclog.Logger {
	if s.Logger == nil {
		return hclog.NewNullLogger()
	}
	return s.Logger
}

// Synthesize writes tint and blur into a copy of template and encodes it to
// exactly targetSize bytes. It never returns bytes of any other length.
func (s Synthesizer) Synthesize(template plisttree.Dict, tint Tint, blur Blur, kind catalog.Kind, targetSize int) ([]byte, error) {
	tree := template.Clone()
	if tree == nil {
		tree = plisttree.Dict{}
	}
	s.stripPadding(tree)

	if err := WriteRecipe(tree, tint, blur, kind); err != nil {
		return nil, err
	}

	base, err := plisttree.Encode(tree, s.Format)
	if err != nil {
		return nil, err
	}
	if len(base) == targetSize {
		return base, nil
	}
	if len(base) > targetSize {
		return nil, &errs.SizeMismatchError{Target: targetSize, Closest: len(base)}
	}

	closest := len(base)
	track := func(size int) {
		if abs(targetSize-size) < abs(targetSize-closest) {
			closest = size
		}
	}

	log := s.logger().With("kind", kind.String(), "target", targetSize)
	for grow := 0; grow <= maxKeyGrowth; grow++ {
		key := s.paddingKey() + strings.Repeat("_", grow)
		if _, taken := tree[key]; taken {
			continue
		}

		seen := make(map[int]bool)
		encodeWith := func(n int) ([]byte, error) {
			seen[n] = true
			tree[key] = plisttree.Data(make([]byte, n))
			return plisttree.Encode(tree, s.Format)
		}

		n, last := 0, 0
		for iter := 0; iter < s.maxIterations() && !seen[n]; iter++ {
			out, err := encodeWith(n)
			if err != nil {
				return nil, err
			}
			track(len(out))
			diff := targetSize - len(out)
			log.Trace("padding attempt", "key", key, "blob", n, "size", len(out))
			if diff == 0 {
				return out, nil
			}
			last = n
			n += diff
			if n < 0 {
				n = 0
			}
		}

		// the step overshoots when the encoding is not linear in the blob
		// length; try the neighbourhood of the last attempt before giving up
		for c := last - 4; c <= last+4; c++ {
			if c < 0 || seen[c] {
				continue
			}
			out, err := encodeWith(c)
			if err != nil {
				return nil, err
			}
			track(len(out))
			if len(out) == targetSize {
				return out, nil
			}
		}
		delete(tree, key)
	}

	return nil, &errs.SizeMismatchError{Target: targetSize, Closest: closest}
}

// stripPadding drops filler left by an earlier synthesis so reused trees
// start from their minimal encoding.
func (s Synthesizer) stripPadding(tree plisttree.Dict) {
	for k := range tree {
		if strings.HasPrefix(k, s.paddingKey()) {
			plisttree.Delete(tree, []string{k})
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
