package domain

// MatchOwnedItems resolves the requested item ids against the claimed owner's
// live inventory. The returned items are the live inventory copies, in
// requested order, so a caller can never smuggle altered attributes into a
// trade. Requested ids with no match are dropped; if nothing matches the
// claim fails with ErrOwnershipMismatch.
func MatchOwnedItems(inventory []OwnedItem, requestedIDs []string) ([]OwnedItem, error) {
	matched := make([]OwnedItem, 0, len(requestedIDs))
	for _, id := range requestedIDs {
		for _, item := range inventory {
			if item.ID == id {
				matched = append(matched, item)
				break
			}
		}
	}
	if len(matched) == 0 {
		return nil, ErrOwnershipMismatch
	}
	return matched, nil
}
