// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package resolve

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/specialistvlad/iconpack/internal/fault"
	"github.com/specialistvlad/iconpack/internal/model"
)

var (
	nonDigits     = regexp.MustCompile(`\D`)
	assertFailure = regexp.MustCompile(`bad decal(Id)? for (\d+)`)
)

// ParseOutput extracts the secondary id map from captured sandbox output. The
// runner may print other lines; the last line holding a JSON object wins.
// Values may be numbers or reference strings; only their digits are kept.
func ParseOutput(out []byte) (model.SecondaryIDs, error) {
	if err := assertionFailure(out); err != nil {
		return nil, err
	}

	var last string
	sc := bufio.NewScanner(bytes.NewReader(out))
	sc.Buffer(make([]byte, 0, 64*1024), 16<<20)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if strings.HasPrefix(line, "{") && strings.HasSuffix(line, "}") {
			last = line
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read sandbox output: %w", err)
	}
	if last == "" {
		return nil, fault.New(fault.Invariant, "resolve.parse", "", "sandbox printed no result object")
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(last), &raw); err != nil {
		return nil, fault.Wrap(fault.Invariant, "resolve.parse", "", fmt.Errorf("decode result object: %w", err))
	}
	ids := make(model.SecondaryIDs, len(raw))
	for key, val := range raw {
		primary := nonDigits.ReplaceAllString(key, "")
		if primary == "" {
			return nil, fault.New(fault.Invariant, "resolve.parse", key, "result key is not an asset id")
		}
		id, err := secondaryID(val)
		if err != nil || id <= 0 {
			return nil, fault.New(fault.Invariant, "resolve.parse", primary, "malformed secondary id %s", val)
		}
		ids[primary] = id
	}
	return ids, nil
}

// assertionFailure reports a failed in-sandbox assertion, if out holds one.
func assertionFailure(out []byte) error {
	m := assertFailure.FindSubmatch(out)
	if m == nil {
		return nil
	}
	return fault.New(fault.Invariant, "resolve.run", string(m[2]), "sandbox could not resolve asset: %s", m[0])
}

// secondaryID accepts a JSON number or a reference string such as
// "rbxassetid://123".
func secondaryID(val json.RawMessage) (int64, error) {
	var s string
	if err := json.Unmarshal(val, &s); err == nil {
		return strconv.ParseInt(nonDigits.ReplaceAllString(s, ""), 10, 64)
	}
	var f float64
	if err := json.Unmarshal(val, &f); err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("%v is not an integer", f)
	}
	return int64(f), nil
}
