package extractor

import "fmt"

// intentPrompt builds the classification prompt. The examples pin the exact
// output shape; the model still wraps the JSON in fences often enough that
// the caller must recover it leniently.
func intentPrompt(userMessage string) string {
	return fmt.Sprintf(`You are an expert intent classifier and data extraction API. Your job is to analyze a user's message and determine their intent, which can be 'CREATE', 'READ', 'BOTH', or 'OTHER'. You must also extract transaction data if the intent involves creating a record.

Your output MUST be a valid JSON object and nothing else. Do not add any explanatory text or any symbols or words like json or any markdown or such, the output should be pure JSON.

The user's message is: %q

- If the user wants to log, add, or record new information (like an expense or income), the intent is 'CREATE'.
- If the user is asking a question or requesting a summary/report about their finances, the intent is 'READ'.
- If the user is doing both of the above in the same message, the intent is 'BOTH'.
- If the message is a greeting, a general non-financial question, or anything that doesn't fit the above categories, the intent is 'OTHER'.

If the intent is 'CREATE' or 'BOTH', you MUST also extract the transaction details into a 'transaction' object. If the intent is 'READ' or 'OTHER', there will be no 'transaction' object.

---
Example 1 Input Message: "i bought 2 milkshakes for 20rs and 1 coffee for 15"
Example 1 Output Format:
{
  "intent": "CREATE",
  "transaction": {
    "type": "expense",
    "items": [
      { "item_name": "milkshake", "quantity": 2, "price_per_item": 10 },
      { "item_name": "coffee", "quantity": 1, "price_per_item": 15 }
    ]
  }
}
---
Example 2 Input Message: "how much did i spend this week?"
Example 2 Output Format:
{
  "intent": "READ"
}
---
Example 3 Input Message: "received 5000rs salary"
Example 3 Output Format:
{
  "intent": "CREATE",
  "transaction": {
    "type": "income",
    "items": [
      { "item_name": "salary", "quantity": 1, "price_per_item": 5000 }
    ]
  }
}
---
Example 4 Input Message: "Log that I bought a pizza for 250. Also, what were my total expenses last month?"
Example 4 Output Format:
{
  "intent": "BOTH",
  "transaction": {
    "type": "expense",
    "items": [
      { "item_name": "pizza", "quantity": 1, "price_per_item": 250 }
    ]
  }
}
---
Example 5 Input Message: "hey how are you doing"
Example 5 Output Format:
{
  "intent": "OTHER"
}
---
Example 6 Input Message: "what is your name?"
Example 6 Output Format:
{
  "intent": "OTHER"
}`, userMessage)
}
