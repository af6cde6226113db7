// Package ai provides access to the external vision and text models used
// for receipt extraction and expense categorization. Providers answer in
// free text; all structural parsing and fallback policy lives in the
// extract package.
package ai
