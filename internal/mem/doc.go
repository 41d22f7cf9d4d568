// Package mem provides cache-line aligned heap allocation for record slabs.
package mem
