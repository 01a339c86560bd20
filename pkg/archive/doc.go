/*
Package archive keeps a SQLite ledger of tweet generation runs: the parameters
each run was invoked with, the size of the model it built and every line it
printed. Only generated output is stored; models are never persisted.
*/
package archive
