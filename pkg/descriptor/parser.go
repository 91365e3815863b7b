package descriptor

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
)

// Parse parses an output descriptor string.
func Parse(desc string) (Descriptor, error) {
	desc = strings.ReplaceAll(desc, " ", "")
	if desc == "" {
		return nil, fmt.Errorf("empty descriptor")
	}
	if i := strings.Index(desc, "#"); i >= 0 {
		return nil, fmt.Errorf("descriptor checksums are not supported")
	}
	return parseExpression(desc)
}

func parseExpression(s string) (Descriptor, error) {
	name, inner, err := splitFunc(s)
	if err != nil {
		return nil, err
	}

	switch name {
	case "pkh":
		key, err := parseKey(inner)
		if err != nil {
			return nil, err
		}
		return &Pkh{key}, nil
	case "wpkh":
		key, err := parseKey(inner)
		if err != nil {
			return nil, err
		}
		return &Wpkh{key}, nil
	case "sh":
		sub, err := parseExpression(inner)
		if err != nil {
			return nil, err
		}
		return &Sh{sub}, nil
	case "wsh":
		sub, err := parseExpression(inner)
		if err != nil {
			return nil, err
		}
		return &Wsh{sub}, nil
	case "multi":
		return parseMulti(inner)
	default:
		return nil, fmt.Errorf("unknown descriptor function %q", name)
	}
}

// splitFunc splits "name(inner)" ensuring the opening parenthesis closes at
// the very end of the expression.
func splitFunc(s string) (string, string, error) {
	open := strings.Index(s, "(")
	if open <= 0 || !strings.HasSuffix(s, ")") {
		return "", "", fmt.Errorf("invalid descriptor format")
	}
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 && i != len(s)-1 {
				return "", "", fmt.Errorf("invalid descriptor format")
			}
		}
	}
	if depth != 0 {
		return "", "", fmt.Errorf("unbalanced parenthesis in descriptor")
	}
	return s[:open], s[open+1 : len(s)-1], nil
}

func parseMulti(inner string) (Descriptor, error) {
	elems := splitList(inner)
	if len(elems) < 2 {
		return nil, fmt.Errorf("multi requires a threshold and at least one key")
	}
	threshold, err := strconv.Atoi(elems[0])
	if err != nil || threshold < 1 || threshold > len(elems)-1 {
		return nil, fmt.Errorf("invalid multi threshold %q", elems[0])
	}
	keys := make([]Key, 0, len(elems)-1)
	for _, elem := range elems[1:] {
		key, err := parseKey(elem)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return &Multi{Threshold: threshold, Keys: keys}, nil
}

// splitList splits on commas at parenthesis depth zero.
func splitList(s string) []string {
	var result []string
	var current strings.Builder
	depth := 0

	for _, char := range s {
		switch char {
		case '(':
			depth++
			current.WriteRune(char)
		case ')':
			depth--
			current.WriteRune(char)
		case ',':
			if depth == 0 {
				result = append(result, current.String())
				current.Reset()
			} else {
				current.WriteRune(char)
			}
		default:
			current.WriteRune(char)
		}
	}
	result = append(result, current.String())
	return result
}

func parseKey(s string) (Key, error) {
	var origin *Bip32Origin
	if strings.HasPrefix(s, "[") {
		end := strings.Index(s, "]")
		if end < 0 {
			return nil, fmt.Errorf("unterminated key origin")
		}
		parsed, err := parseOrigin(s[1:end])
		if err != nil {
			return nil, err
		}
		origin = &parsed
		s = s[end+1:]
	}

	wildcard := false
	if strings.HasSuffix(s, "/*") {
		wildcard = true
		s = strings.TrimSuffix(s, "/*")
	}

	body := s
	var path DerivationPath
	if i := strings.Index(s, "/"); i >= 0 {
		body = s[:i]
		parsed, err := ParseDerivationPath(s[i+1:])
		if err != nil {
			return nil, err
		}
		path = parsed
	}

	if isHexPubKey(body) {
		raw, err := hex.DecodeString(body)
		if err != nil {
			return nil, fmt.Errorf("invalid public key hex: %v", err)
		}
		pub, err := btcec.ParsePubKey(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid public key: %v", err)
		}
		if origin != nil || len(path) > 0 || wildcard {
			return nil, fmt.Errorf("bare public keys cannot be derived")
		}
		return &ConstKey{Hex: body, Key: pub}, nil
	}

	xpub, err := hdkeychain.NewKeyFromString(body)
	if err != nil {
		return nil, fmt.Errorf("invalid extended key %q: %v", body, err)
	}
	if xpub.IsPrivate() {
		return nil, fmt.Errorf("private extended keys are not allowed in descriptors")
	}
	return &XPubKey{Origin: origin, XPub: xpub, Path: path, Wildcard: wildcard}, nil
}

func parseOrigin(s string) (Bip32Origin, error) {
	parts := strings.SplitN(s, "/", 2)
	if len(parts[0]) != 8 {
		return Bip32Origin{}, fmt.Errorf("origin fingerprint must be 4 bytes of hex")
	}
	fp, err := strconv.ParseUint(parts[0], 16, 32)
	if err != nil {
		return Bip32Origin{}, fmt.Errorf("invalid origin fingerprint %q", parts[0])
	}
	var path DerivationPath
	if len(parts) == 2 {
		parsed, errPath := ParseDerivationPath(parts[1])
		if errPath != nil {
			return Bip32Origin{}, errPath
		}
		path = parsed
	}
	return Bip32Origin{Fingerprint: uint32(fp), Path: path}, nil
}

func isHexPubKey(s string) bool {
	if len(s) != 66 && len(s) != 130 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}
