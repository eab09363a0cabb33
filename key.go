package memocache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

const (
	// DefaultMaxKeyLength is the memcached protocol limit, kept as the
	// default bound for every backend.
	DefaultMaxKeyLength = 250

	// DefaultFlattenDepth expands one level of nesting beyond the top-level
	// input; deeper sequences are stringified whole. The shallow default
	// bounds the cost of key derivation.
	DefaultFlattenDepth = 1
)

// Pair is one entry of a Mapping.
type Pair struct {
	Key   any
	Value any
}

// Mapping is an insertion-ordered mapping atom. It formats as
// "k:v,k:v,..." in slice order. A Go map is deliberately not accepted as an
// atom: its iteration order is random, and key derivation must be
// deterministic.
type Mapping []Pair

type inputKind uint8

const (
	kindAtom inputKind = iota
	kindSeq
	kindResolver
)

// KeyInput is one element of a cache key: an atomic value, an ordered
// sequence of further KeyInputs, or a resolver invoked with the call's
// arguments. Construct with Atom, Seq, ResolverFunc, or Input.
type KeyInput struct {
	kind inputKind
	atom any
	seq  []KeyInput
	fn   func(args []any) KeyInput
}

// Atom wraps a single indivisible value: text, number, boolean, nil, or a
// Mapping. Text is never decomposed further.
func Atom(v any) KeyInput { return KeyInput{kind: kindAtom, atom: v} }

// Seq wraps an ordered sequence. Order is semantically significant: two
// permutations of the same atoms may produce different keys.
func Seq(in ...KeyInput) KeyInput { return KeyInput{kind: kindSeq, seq: in} }

// ResolverFunc wraps a function invoked once per call with the call's own
// arguments; its result replaces the element before flattening. Resolvers
// must be deterministic.
func ResolverFunc(fn func(args []any) KeyInput) KeyInput {
	return KeyInput{kind: kindResolver, fn: fn}
}

// Input converts a loosely-typed value into a KeyInput. It is the single
// explicit bridge for callers holding plain values:
//
//	KeyInput        -> unchanged
//	[]KeyInput      -> Seq
//	[]any           -> Seq of Input(elem)
//	[]string        -> Seq of Atom(elem)
//	func([]any) KeyInput -> ResolverFunc
//	func([]any) any      -> ResolverFunc over Input of the result
//	anything else   -> Atom
func Input(v any) KeyInput {
	switch x := v.(type) {
	case KeyInput:
		return x
	case []KeyInput:
		return Seq(x...)
	case []any:
		out := make([]KeyInput, len(x))
		for i, e := range x {
			out[i] = Input(e)
		}
		return Seq(out...)
	case []string:
		out := make([]KeyInput, len(x))
		for i, e := range x {
			out[i] = Atom(e)
		}
		return Seq(out...)
	case func(args []any) KeyInput:
		return ResolverFunc(x)
	case func(args []any) any:
		return ResolverFunc(func(args []any) KeyInput { return Input(x(args)) })
	default:
		return Atom(v)
	}
}

// resolve replaces a top-level resolver with its result. Nested resolvers
// inside sequences are resolved by flatten with the same args.
func resolve(in KeyInput, args []any) KeyInput {
	if in.kind == kindResolver {
		return in.fn(args)
	}
	return in
}

// KeyBuilder canonicalizes KeyInputs into a single bounded key string.
// The zero value is not usable; construct via NewKeyBuilder.
type KeyBuilder struct {
	maxLen    int
	prefixLen int
	depth     int
}

// NewKeyBuilder returns a builder enforcing maxLen (0 => 250) for a backend
// that prepends a fixed prefix of prefixLen bytes to every key it stores.
// depth is the flatten depth (0 => 1; pass a negative value for no
// flattening below the top level).
func NewKeyBuilder(maxLen, prefixLen, depth int) *KeyBuilder {
	if depth == 0 {
		depth = DefaultFlattenDepth
	} else if depth < 0 {
		depth = 0
	}
	return &KeyBuilder{
		maxLen:    coalesce(maxLen, DefaultMaxKeyLength),
		prefixLen: prefixLen,
		depth:     depth,
	}
}

// BuildKey flattens and formats input, joins the atoms with ".", and bounds
// the result to the maximum length (substituting a truncated digest when the
// backend prefix plus key would overflow it).
func (b *KeyBuilder) BuildKey(input KeyInput) (string, error) {
	return b.bound(b.render(input))
}

func (b *KeyBuilder) render(input KeyInput) string {
	atoms := b.flatten(input, b.depth)
	parts := make([]string, len(atoms))
	for i, a := range atoms {
		parts[i] = formatAtom(a)
	}
	return strings.Join(parts, ".")
}

// flatten expands sequences element-wise until depth is exhausted; deeper
// sequences are kept whole as opaque atoms. The top-level input always
// expands, matching a depth of "levels beyond the top".
func (b *KeyBuilder) flatten(in KeyInput, depth int) []any {
	switch in.kind {
	case kindResolver:
		// unresolved element outside an engine call; no args to offer
		return b.flatten(in.fn(nil), depth)
	case kindSeq:
		var out []any
		for _, e := range in.seq {
			out = append(out, b.flattenElem(e, depth)...)
		}
		return out
	default:
		return []any{in.atom}
	}
}

func (b *KeyBuilder) flattenElem(in KeyInput, depth int) []any {
	switch in.kind {
	case kindResolver:
		return b.flattenElem(in.fn(nil), depth)
	case kindSeq:
		if depth <= 0 {
			return []any{opaque(in)}
		}
		var out []any
		for _, e := range in.seq {
			out = append(out, b.flattenElem(e, depth-1)...)
		}
		return out
	default:
		return []any{in.atom}
	}
}

// opaque stringifies a sequence whole, without promoting its elements to
// standalone atoms.
func opaque(in KeyInput) string {
	switch in.kind {
	case kindResolver:
		return opaque(in.fn(nil))
	case kindSeq:
		parts := make([]string, len(in.seq))
		for i, e := range in.seq {
			parts[i] = opaque(e)
		}
		return "[" + strings.Join(parts, ",") + "]"
	default:
		return formatAtom(in.atom)
	}
}

// formatAtom produces the canonical text for one atom and strips bytes that
// are illegal in the key protocol.
func formatAtom(v any) string {
	var s string
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		s = x
	case Mapping:
		parts := make([]string, len(x))
		for i, p := range x {
			parts[i] = formatAtom(p.Key) + ":" + formatAtom(p.Value)
		}
		s = strings.Join(parts, ",")
	case bool:
		s = strconv.FormatBool(x)
	case int:
		s = strconv.Itoa(x)
	case int64:
		s = strconv.FormatInt(x, 10)
	case uint64:
		s = strconv.FormatUint(x, 10)
	case float64:
		s = strconv.FormatFloat(x, 'g', -1, 64)
	case float32:
		s = strconv.FormatFloat(float64(x), 'g', -1, 32)
	case []byte:
		s = string(x)
	case fmt.Stringer:
		s = x.String()
	default:
		s = fmt.Sprintf("%v", x)
	}
	return stripIllegal(s)
}

// stripIllegal removes every byte the target key protocol forbids: C0
// controls and space (0x00-0x20), DEL (0x7F), and C1 controls (0x80-0x9F).
// The scan is byte-wise, not rune-wise; multi-byte text that encodes into
// this range is mangled rather than rejected, same as the key protocol
// itself would.
func stripIllegal(s string) string {
	clean := true
	for i := 0; i < len(s); i++ {
		if illegalByte(s[i]) {
			clean = false
			break
		}
	}
	if clean {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if !illegalByte(s[i]) {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

func illegalByte(c byte) bool {
	return c <= 0x20 || c == 0x7F || (c >= 0x80 && c <= 0x9F)
}

// bound enforces the maximum key length. Keys that would overflow once the
// backend prefix is accounted for are replaced by a hex digest truncated to
// the remaining budget; short keys stay human-inspectable.
func (b *KeyBuilder) bound(key string) (string, error) {
	k, _, err := b.boundDetail(key)
	return k, err
}

// boundDetail additionally reports whether the digest fallback fired.
func (b *KeyBuilder) boundDetail(key string) (string, bool, error) {
	if b.prefixLen+len(key) <= b.maxLen {
		return key, false, nil
	}
	if b.prefixLen >= b.maxLen {
		return "", false, ErrPrefixTooLong
	}
	sum := sha256.Sum256([]byte(key))
	digest := hex.EncodeToString(sum[:])
	if budget := b.maxLen - b.prefixLen; budget < len(digest) {
		digest = digest[:budget]
	}
	return digest, true, nil
}
