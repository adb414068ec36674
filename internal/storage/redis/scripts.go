package redis

const (
	// saveSnapshotScript atomically replaces the live ledger document and
	// upserts every archived day into the history hash.
	saveSnapshotScript = `
local snapshot_key = KEYS[1]    -- {prefix}:snapshot
local history_key = KEYS[2]     -- {prefix}:history

redis.call('SET', snapshot_key, ARGV[1])

-- Remaining args are day / json pairs
local days = 0
for i = 2, #ARGV, 2 do
  redis.call('HSET', history_key, ARGV[i], ARGV[i + 1])
  days = days + 1
end

return days
`
)
