/*
Package record implements the durable record layer that handlers mutate.

A record is a key-addressed byte blob with an owner tag and a balance. The
owner tag names the program identity that is allowed to rewrite the data;
everything else may only read it. The balance exists because creating a
record costs its funder the minimum balance for the record size, the same
way the surrounding execution environment charges for storage.

Records are stored through the quorum.KVStore interfaces, so the same code
runs against the in-memory test store and whatever the environment provides
in production.
*/
package record
