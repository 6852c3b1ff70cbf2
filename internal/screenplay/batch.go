/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package screenplay

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ClassifyAll classifies several documents in parallel, running at most limit
// classifications at once (limit <= 0 means no limit). Results keep the
// input order. Cancelling ctx stops documents that have not started yet.
func ClassifyAll(ctx context.Context, docs [][]string, limit int) ([][]ClassifiedLine, error) {
	out := make([][]ClassifiedLine, len(docs))
	eg, egCtx := errgroup.WithContext(ctx)
	if limit > 0 {
		eg.SetLimit(limit)
	}
	for i, doc := range docs {
		i, doc := i, doc
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			out[i] = Classify(doc)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
