// Package projectitem implements the Item View query.
//
// An item is shown together with its comments. Its owner additionally sees the last approved
// reservation that has started before Now and the next approved reservation starting after Now.
// Both are found with two single-row range queries on (item, status, start) instead of scanning
// every reservation of the item. Ties on identical start are broken by reservation id, the greater
// id for the last booking and the smaller id for the next booking.
package projectitem
