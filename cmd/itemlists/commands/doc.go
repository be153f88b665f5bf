// Package commands implements the itemlists command line tool.
//
//	itemlists show <list>            load a list and print it
//	itemlists all                    load every list at once and print them
//	itemlists select <list> <index>  load a list and select one of its items
//	itemlists refresh                keep the friends cache warm
//
// The lists are friends, sent, received and cards. Every flag can also be set with an
// ITEMS_ environment variable, for example ITEMS_USER_ID for --user.
package commands
