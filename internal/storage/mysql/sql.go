package mysql

const upsertAvailabilitySQL = `
INSERT INTO hotel_availability
  (hotel_id, is_active, available_start_date, available_end_date)
VALUES
  (?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  is_active            = VALUES(is_active),
  available_start_date = VALUES(available_start_date),
  available_end_date   = VALUES(available_end_date),
  updated_at           = CURRENT_TIMESTAMP
`

const deletePricesSQL = `DELETE FROM hotel_prices WHERE hotel_id = ?`

const insertPricesPrefix = "INSERT INTO hotel_prices\n  (hotel_id, position, start_date, end_date, room_type, price, is_sharing_allowed)\nVALUES "

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

const getAvailabilitySQL = `
SELECT
  is_active,
  available_start_date,
  available_end_date
FROM hotel_availability
WHERE hotel_id = ?
`

// position keeps rows in the order they were saved (section, then only-room first)
const listPricesSQL = `
SELECT
  start_date,
  end_date,
  room_type,
  price,
  is_sharing_allowed
FROM hotel_prices
WHERE hotel_id = ?
ORDER BY position
`
