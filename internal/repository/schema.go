package repository

// SchemaStatements are the idempotent DDL statements for the insight
// store, applied on startup via clickhouse.Client.InitSchema.
var SchemaStatements = []string{
	`CREATE DATABASE IF NOT EXISTS tradeinsight`,
	`CREATE TABLE IF NOT EXISTS tradeinsight.headlines (
        title        String,
        source       String,
        published_at DateTime('UTC'),
        url          String,
        assets       Array(String)
    ) ENGINE = ReplacingMergeTree
    ORDER BY (published_at, title)
    TTL published_at + INTERVAL 30 DAY`,
	`CREATE TABLE IF NOT EXISTS tradeinsight.candles_1h (
        bucket DateTime('UTC'),
        symbol String,
        open   Float64,
        high   Float64,
        low    Float64,
        close  Float64,
        vol    Float64
    ) ENGINE = ReplacingMergeTree
    ORDER BY (symbol, bucket)
    TTL bucket + INTERVAL 90 DAY`,
}
