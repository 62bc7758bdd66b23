// Package submission contains the reconciliation algorithm that keeps app
// submission records in sync with manifest files discovered on GitHub.
package submission
