// Package additem implements the Add Item use case of the item directory.
package additem
