package user

// KnownUsersKey 是一个Redis Set，用于快速判断一个UUID是否已激活。
// 它只是数据库的缓存，缺失时回退到数据库查询。
// Key: urble:known_users
// Member: User UUID
const KnownUsersKey = "urble:known_users"
