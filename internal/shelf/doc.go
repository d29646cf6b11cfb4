// Package shelf keeps the local view of the book collection consistent
// with the server.
//
// # Components
//
//   - Store: the snapshot of the last successful list, replaced wholesale
//   - EditSlot: the single record being edited, if any
//   - Coordinator: create/update/delete as "remote call, then refresh"
//
// # Basic Usage
//
//	coord := shelf.New(settings, func(event shelf.Event) {
//	    fmt.Println(event.Message)
//	})
//	if err := coord.Start(ctx); err != nil {
//	    // snapshot stays empty, coord.LastError() reports why
//	}
//
//	result := coord.Create(ctx, draft)
//	if !result.OK() {
//	    // keep the draft, let the user retry
//	}
//
//	coord.BeginEdit(id)
//	result = coord.Update(ctx, id, model.DraftOf(book))
//	// slot is Idle again once the server confirmed the update
//
// # Consistency
//
// The client never patches its snapshot locally. Every successful mutation
// triggers a full refresh. Mutations are serialized by the Coordinator and
// stale refreshes are discarded by the Store, so the snapshot always reflects
// the most recently started list call.
package shelf
