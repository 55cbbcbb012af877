package grouping

import (
	"fmt"
	"strings"

	"mutations/api/models/indexes"
)

// KeySeparator joins identity fields into a group key; it is not expected
// to appear within any identity field's textual form
const KeySeparator = "_"

// GroupKey derives a key from an ordered identity tuple
func GroupKey(identity ...interface{}) string {
	parts := make([]string, len(identity))
	for i, field := range identity {
		parts[i] = fmt.Sprint(field)
	}
	return strings.Join(parts, KeySeparator)
}

// MutationKey keys a mutation by its locus: chromosome, start, end,
// reference allele and variant allele (in that order)
func MutationKey(m indexes.Mutation) string {
	return GroupKey(m.Chromosome, m.StartPosition, m.EndPosition, m.ReferenceAllele, m.VariantAllele)
}

/*
	Partitions records into rows sharing the same key.

	Rows are emitted in the order their key was first seen and
	each row keeps its records in input order. Every record lands
	in exactly one row.
*/
func Group[R any](records []R, key func(R) string) [][]R {
	keyToRow := make(map[string][]R)
	seenKeys := make([]string, 0)

	for _, record := range records {
		k := key(record)
		if _, exists := keyToRow[k]; !exists {
			seenKeys = append(seenKeys, k)
		}
		keyToRow[k] = append(keyToRow[k], record)
	}

	rows := make([][]R, 0, len(seenKeys))
	for _, k := range seenKeys {
		rows = append(rows, keyToRow[k])
	}
	return rows
}

// a row in the mutations table may represent more than one mutation call
func GroupMutations(mutations []indexes.Mutation) [][]indexes.Mutation {
	return Group(mutations, MutationKey)
}

// Keys returns the group key of every row, in row order
func Keys(rows [][]indexes.Mutation) []string {
	keys := make([]string, 0, len(rows))
	for _, row := range rows {
		if len(row) > 0 {
			keys = append(keys, MutationKey(row[0]))
		}
	}
	return keys
}
