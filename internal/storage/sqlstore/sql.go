package sqlstore

// Both drivers accept `?` placeholders, so only the DDL differs per dialect.

const insertReviewSQL = `
INSERT INTO reviews (year, summary, employee_id)
VALUES (?, ?, ?)
`

const updateReviewSQL = `
UPDATE reviews
SET year = ?, summary = ?, employee_id = ?
WHERE id = ?
`

const deleteReviewSQL = `DELETE FROM reviews WHERE id = ?`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

const selectReviewColumns = `SELECT id, year, summary, employee_id FROM reviews`

const getReviewSQL = selectReviewColumns + ` WHERE id = ?`

// No ORDER BY: callers get whatever order the engine returns.
const listReviewsSQL = selectReviewColumns

const listReviewsByEmployeeSQL = selectReviewColumns + ` WHERE employee_id = ? ORDER BY id`

const insertEmployeeSQL = `INSERT INTO employees (name, job_title) VALUES (?, ?)`

const deleteEmployeeSQL = `DELETE FROM employees WHERE id = ?`

const getEmployeeSQL = `SELECT id, name, job_title FROM employees WHERE id = ?`

const listEmployeesSQL = `SELECT id, name, job_title FROM employees ORDER BY id`

// -----------------------------------------------------------------------------
// DDL
// -----------------------------------------------------------------------------

const dropReviewsSQL = `DROP TABLE IF EXISTS reviews`

const dropEmployeesSQL = `DROP TABLE IF EXISTS employees`

type ddl struct {
	createEmployees string
	createReviews   string
}

var sqliteDDL = ddl{
	createEmployees: `
CREATE TABLE IF NOT EXISTS employees (
  id        INTEGER PRIMARY KEY,
  name      TEXT,
  job_title TEXT
)`,
	createReviews: `
CREATE TABLE IF NOT EXISTS reviews (
  id          INTEGER PRIMARY KEY,
  year        INT NOT NULL,
  summary     TEXT NOT NULL,
  employee_id INTEGER,
  FOREIGN KEY (employee_id) REFERENCES employees(id)
)`,
}

var mysqlDDL = ddl{
	createEmployees: `
CREATE TABLE IF NOT EXISTS employees (
  id        BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
  name      VARCHAR(255),
  job_title VARCHAR(255)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	createReviews: `
CREATE TABLE IF NOT EXISTS reviews (
  id          BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
  year        INT NOT NULL,
  summary     TEXT NOT NULL,
  employee_id BIGINT,
  KEY idx_reviews_employee (employee_id),
  CONSTRAINT fk_reviews_employee FOREIGN KEY (employee_id) REFERENCES employees(id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}
