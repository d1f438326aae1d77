package usecase

// ExpectedCategory is exported for testing
var ExpectedCategory = expectedCategory

// TruncateRunes is exported for testing
var TruncateRunes = truncateRunes
