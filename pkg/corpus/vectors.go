package corpus

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// Vectors maps a word to its embedding.
type Vectors map[string][]float64

// ReadVectors parses whitespace-delimited lines: a word followed by its components.
// Lines with unparsable components are skipped.
func ReadVectors(r io.Reader) (Vectors, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	vecs := make(Vectors)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}
		vec := make([]float64, 0, len(fields)-1)
		ok := true
		for _, f := range fields[1:] {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				ok = false
				break
			}
			vec = append(vec, v)
		}
		if ok {
			vecs[fields[0]] = vec
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read vectors: %w", err)
	}
	return vecs, nil
}

// LoadVectors reads an embedding file such as glove.6B.50d.txt.
func LoadVectors(path string) (Vectors, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadVectors(f)
}

// Distance is the Euclidean distance between a and b over their shared dimensions.
func Distance(a, b []float64) float64 {
	n := min(len(a), len(b))
	var sum float64
	for i := 0; i < n; i++ {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// Distance returns the distance between two words and false when either
// has no vector.
func (v Vectors) Distance(a, b string) (float64, bool) {
	va, ok := v[a]
	if !ok {
		return 0, false
	}
	vb, ok := v[b]
	if !ok {
		return 0, false
	}
	return Distance(va, vb), true
}
