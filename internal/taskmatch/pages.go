// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-14
// Last Modified: 2026-10-14

package taskmatch

import (
	"context"

	"github.com/similigh/prlink/internal/integrations/asana"
)

// pageIterator walks a project's task list one request at a time, threading
// the cursor from each response into the next request.
type pageIterator struct {
	source    TaskSource
	projectID string
	limit     int
	cursor    string
	index     int
	done      bool
}

func newPageIterator(source TaskSource, projectID string, limit int) *pageIterator {
	return &pageIterator{source: source, projectID: projectID, limit: limit}
}

// Next returns the next page, or nil once the previous page had no cursor.
// After an error or the last page the iterator stays exhausted.
func (it *pageIterator) Next(ctx context.Context) (*asana.TaskPage, error) {
	if it.done {
		return nil, nil
	}

	page, err := it.source.ListProjectTasks(ctx, it.projectID, asana.ListOptions{
		Limit:  it.limit,
		Offset: it.cursor,
	})
	if err != nil {
		it.done = true
		return nil, err
	}
	it.index++

	it.cursor = page.Cursor()
	if it.cursor == "" {
		it.done = true
	}
	return page, nil
}

// Index is the number of pages fetched so far.
func (it *pageIterator) Index() int {
	return it.index
}
