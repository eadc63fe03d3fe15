package invoice

// Reconcile partitions desired against the identifiers currently persisted for an invoice.
//
// Items whose ID is persisted are updated (even if unchanged), every other item is
// created, and persisted identifiers that no desired item references are deleted.
// An ID the invoice never had is treated as a create; the ID is cleared so the store
// assigns a fresh one. Duplicate IDs are not collapsed here; DeriveEdit rejects them.
func Reconcile(desired []LineItem, existingIDs []string) ItemOperationSet {
	existing := make(map[string]struct{}, len(existingIDs))
	for _, id := range existingIDs {
		existing[id] = struct{}{}
	}

	ops := ItemOperationSet{
		ToCreate: make([]LineItem, 0),
		ToUpdate: make([]LineItem, 0),
		ToDelete: make([]string, 0),
	}
	referenced := make(map[string]struct{}, len(desired))
	for _, it := range desired {
		if it.ID != "" {
			if _, ok := existing[it.ID]; ok {
				referenced[it.ID] = struct{}{}
				ops.ToUpdate = append(ops.ToUpdate, it)
				continue
			}
		}
		it.ID = ""
		ops.ToCreate = append(ops.ToCreate, it)
	}
	for _, id := range existingIDs {
		if _, ok := referenced[id]; !ok {
			ops.ToDelete = append(ops.ToDelete, id)
		}
	}
	return ops
}
