/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package screenplay

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"

	"github.com/patrickmn/go-cache"
)

// Memo is a read-through cache of classification results keyed by the full
// content of the line sequence. Entries never expire. It is safe for
// concurrent use and is not required for correctness.
type Memo struct {
	c *cache.Cache
}

// NewMemo returns an empty memo.
func NewMemo() *Memo {
	return &Memo{c: cache.New(cache.NoExpiration, 0)}
}

// Classify returns the cached classification for lines, computing and
// storing it on a miss. The returned slice is owned by the caller.
func (m *Memo) Classify(lines []string) []ClassifiedLine {
	if m == nil || m.c == nil {
		return Classify(lines)
	}
	key := contentKey(lines)
	if v, ok := m.c.Get(key); ok {
		return clone(v.([]ClassifiedLine))
	}
	res := Classify(lines)
	m.c.SetDefault(key, clone(res))
	return res
}

// Len reports the number of cached sequences.
func (m *Memo) Len() int {
	if m == nil || m.c == nil {
		return 0
	}
	return m.c.ItemCount()
}

// contentKey digests the sequence with length prefixes so that
// ["ab"] and ["a", "b"] never collide.
func contentKey(lines []string) string {
	h := sha256.New()
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], uint64(len(lines)))
	h.Write(n[:])
	for _, l := range lines {
		binary.BigEndian.PutUint64(n[:], uint64(len(l)))
		h.Write(n[:])
		h.Write([]byte(l))
	}
	return hex.EncodeToString(h.Sum(nil))
}

func clone(in []ClassifiedLine) []ClassifiedLine {
	out := make([]ClassifiedLine, len(in))
	copy(out, in)
	return out
}
