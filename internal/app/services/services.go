package services

// Services defined in this package:
// - ChallengeService: Challenge creation, lookup and listing
// - MembershipService: Joining and leaving challenges
// - CheckinService: The check-in flow and streak derivation
// - LeaderboardService: Deterministic ranking snapshots
// - FeedService: Reverse-chronological activity snapshots
// - CommentService: Challenge discussion threads
// - StreamService: Change-notification fan-out to live views
