// Package bookkeeping is a JSON-RPC client for the bookkeeping system that holds
// the dealer's inventory and price list.
//
// The bookkeeping system speaks JSON-RPC 2.0 on a single /jsonrpc endpoint. Every
// request is a "call" naming a service and method:
//
//	common.login(db, user, api_key)                         -> user id
//	object.execute_kw(db, uid, api_key, model, method, args, kwargs)
//
// The user id is requested once and cached for the lifetime of the Client.
//
// Two reads feed a reconciliation run: FetchStock returns the baseline inventory
// (default_code, qty_available) and FetchPrices the current price list
// (default_code, list_price, standard_price). Both are restricted to products
// available in the point of sale whose category matches one of the configured
// category names.
package bookkeeping
