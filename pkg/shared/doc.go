// Package shared resolves the operator account and network the
// acceptance suite runs against. Credentials come from environment
// variables or the nearest .env file and are read once per process;
// every transaction the suite issues is paid for by this operator.
package shared
